package main

import "github.com/alexanderritik/dbiso/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
