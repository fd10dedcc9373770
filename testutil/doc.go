// Package testutil provides test helpers for rereplay: lifecycle setup and
// teardown for components, and a counting real-call wrapper for asserting
// whether the network was actually touched.
package testutil
