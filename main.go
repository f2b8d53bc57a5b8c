package main

import "github.com/inovacc/jbconsole/cmd"

func main() {
	cmd.Execute()
}
