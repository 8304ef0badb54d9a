package types

// Version is the vfdstream release version.
const Version = "0.1.0"
