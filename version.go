package dtree

// Version is the released version of the dtree module and CLI.
const Version = "0.3.0"
