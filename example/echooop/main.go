package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/shafreeck/cobalt"
)

type PrintCommand struct{}

func (PrintCommand) Use() string {
	return "print [text to print]"
}

func (PrintCommand) Short() string {
	return "Prints the given text on screen."
}

func (PrintCommand) Long() string {
	return "Prints the given text on screen. \nThis has been done for centuries."
}

func (PrintCommand) Run(args cobalt.Arguments) int {
	fmt.Println(strings.Join(args, " "))
	return 0
}

type EchoCommand struct {
	times int
}

func (EchoCommand) Use() string {
	return "echo [text to print]"
}

func (EchoCommand) Short() string {
	return "Echo the given text on screen."
}

func (EchoCommand) Long() string {
	return "Echo the given text on screen. \nSimply like print but with the option to repeat yourself."
}

func (e *EchoCommand) RegisterFlags(c *cobalt.Command) {
	c.LocalFlags().IntVar(&e.times, "times", "t", 1, "The number of times to print the text")
}

func (e *EchoCommand) Run(args cobalt.Arguments) int {
	for i := 0; i < e.times; i++ {
		fmt.Println(strings.Join(args, " "))
	}
	return 0
}

type RootCommand struct{}

func (RootCommand) Use() string {
	return "echooop"
}

func (RootCommand) Subcommands() []cobalt.Constructor {
	return []cobalt.Constructor{cobalt.Of[PrintCommand](), cobalt.Of[EchoCommand]()}
}

func main() {
	os.Exit(cobalt.Execute[RootCommand](os.Args))
}
