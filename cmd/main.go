package main

import (
	"github.com/hasura-metrics-adapter/cmd/agent"
)

func main() {
	agent.Execute()
}
