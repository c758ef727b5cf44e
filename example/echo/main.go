package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shafreeck/cobalt"
)

func main() {
	// the main command only groups the others
	root := cobalt.NewCommand()
	root.Use = "echo"

	printCmd := cobalt.NewCommand()
	printCmd.Use = "print [text to print]"
	printCmd.Short = "Prints the given text on screen."
	printCmd.Long = "Prints the given text on screen. \nThis has been done for centuries."
	printCmd.Run = func(args cobalt.Arguments) int {
		fmt.Println(strings.Join(args, " "))
		return 0
	}

	var times int

	// echo is print with the option to repeat yourself
	echoCmd := cobalt.NewCommand()
	echoCmd.Use = "echo [text to print]"
	echoCmd.Short = "Echo the given text on screen."
	echoCmd.Long = "Echo the given text on screen. \nSimply like print but with the option to repeat yourself."
	echoCmd.Run = func(args cobalt.Arguments) int {
		for i := 0; i < times; i++ {
			fmt.Println(strings.Join(args, " "))
		}
		return 0
	}
	echoCmd.PersistentFlags().IntVar(&times, "times", "t", 1, "The number of times to print the text")

	if err := root.AddCommand(printCmd, echoCmd); err != nil {
		log.Fatal(err)
	}
	os.Exit(root.Execute(os.Args))
}
