package main

import "recommendationService/app/echo-server/cmd"

func main() {
	cmd.Execute()
}
