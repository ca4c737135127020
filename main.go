package main

import "github.com/outreachhq/outreach/cmd"

func main() {
	cmd.Execute()
}
