package main

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBold  = "\x1b[1m"
)

func red(s string) string   { return ansiRed + s + ansiReset }
func green(s string) string { return ansiGreen + s + ansiReset }
func bold(s string) string  { return ansiBold + s + ansiReset }
