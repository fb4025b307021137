// Package defaults persists command line option defaults across invocations.
//
// Values such as the model id, sampling temperature and image options are
// stored in a YAML file next to the other ocd settings. They can be listed,
// changed by name and reset to initial values from the CLI.
package defaults
