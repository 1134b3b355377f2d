package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/USRSE/usrse-go/internal/endpoints"
)

var nameStyle = lipgloss.NewStyle().Bold(true)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known endpoints",
	Run: func(cmd *cobra.Command, args []string) {
		reg := endpoints.Registry()
		for _, name := range endpoints.Names() {
			ep := reg[name]
			fmt.Printf("%s  %s  %s\n", ep.Emoji, nameStyle.Render(name), ep.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
