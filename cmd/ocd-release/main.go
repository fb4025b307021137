package main

import "github.com/davedittrich/ocd/cmd/ocd-release/cmd"

func main() {
	cmd.Execute()
}
