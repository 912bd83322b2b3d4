package main

import "github.com/eryajf/femcare/cmd"

func main() {
	cmd.Execute()
}
