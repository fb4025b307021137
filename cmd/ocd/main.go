package main

import "github.com/davedittrich/ocd/cmd/ocd/cmd"

func main() {
	cmd.Execute()
}
