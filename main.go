package main

import "github.com/zheng/aurora/cmd"

func main() {
	cmd.Execute()
}
