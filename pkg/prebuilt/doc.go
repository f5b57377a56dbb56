// Package prebuilt provides ready-made node scripts for the bindings and
// display conditions most layers need: reading a data model value, showing
// a layer while a flag is set, or while a value crosses a threshold. Each
// prebuilt takes a small Config and returns a script that can be edited
// further or saved like any other.
package prebuilt
