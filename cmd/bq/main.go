package main

import "bulletquest/cmd/bq/root"

func main() {
	root.Execute()
}
