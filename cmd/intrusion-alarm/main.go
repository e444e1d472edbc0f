package main

import "github.com/oshokin/intrusion-alarm/cmd/intrusion-alarm/cmd"

func main() {
	cmd.Execute()
}
