// Command invoiceflow is the terminal client for invoice management.
package main

import "github.com/aliveevie/invoice-flow-btc/cli"

func main() {
	cli.Execute()
}
