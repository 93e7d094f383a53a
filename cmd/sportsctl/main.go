package main

import "sportsevents/cli"

func main() {
	cli.Execute()
}
