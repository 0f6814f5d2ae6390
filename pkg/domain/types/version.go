package types

// Version is the ghfeed version, overwritten by -ldflags at release build.
var Version = "dev"
