package lisp

// Version is the release version reported by the CLI.
const Version = "0.4.1"
