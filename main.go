package main

import "github.com/fbz-tec/pgxunload/cmd"

func main() {
	cmd.Execute()
}
