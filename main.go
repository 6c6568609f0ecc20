package main

import "github.com/zkmopro/anon-aadhaar-prover/cmd"

func main() {
	cmd.Execute()
}
