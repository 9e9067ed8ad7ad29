package main

import "github.com/qx/budget_robot/cmd"

func main() {
	cmd.Execute()
}
