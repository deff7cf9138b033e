package assent

// Version is the semantic version of this module.
const Version = "0.1.0"
