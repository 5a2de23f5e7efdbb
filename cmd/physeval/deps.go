package main

import (
	"github.com/stellarlinkco/phys-eval/internal/llm"
	"github.com/stellarlinkco/phys-eval/internal/store"
)

var (
	openStore                 = store.Open
	defaultProviderFromConfig = llm.DefaultProviderFromConfig
)
