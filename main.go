package main

import "github.com/ByLCY/flexbox/cmd"

func main() {
	cmd.Execute()
}
