package main

import "github.com/ValentinKolb/omap/cmd"

func main() {
	cmd.Execute()
}
