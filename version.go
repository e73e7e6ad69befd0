package hfstol

// Version is the library version, overridden at build time with
// -ldflags "-X github.com/aretw0/hfstol.Version=...".
var Version = "dev"
