package main

import "github.com/oracleapp/oracle/internal/cli"

func main() {
	cli.Execute()
}
