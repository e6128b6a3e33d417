package main

import "github.com/naka-gawa/repo-report/cmd"

func main() {
	cmd.Execute()
}
