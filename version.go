package main

// _version is the version of supdoc,
// overridden at release time with -ldflags.
var _version = "dev"
