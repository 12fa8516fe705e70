package main

import "github.com/cheerioskun/matchninja/internal/cmd"

func main() {
	cmd.Execute()
}
