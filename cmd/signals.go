package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/akhmetov/cv-matcher/internal/engine"

	"github.com/spf13/cobra"
)

var signalsCmd = &cobra.Command{
	Use:   "signals <file>",
	Short: "Print the raw matching signals extracted from a resume text file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runSignals(args[0])
	},
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}

func runSignals(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading file: %v", err)
	}

	text := string(data)
	extractor := engine.NewSkillExtractor(nil)

	skills := extractor.Extract(text).Sorted()
	if len(skills) == 0 {
		fmt.Println("skills: none recognized")
	} else {
		fmt.Printf("skills: %s\n", strings.Join(skills, ", "))
	}

	if years, ok := engine.EstimateYears(text); ok {
		fmt.Printf("experience: %d years\n", years)
	} else {
		fmt.Println("experience: unknown")
	}

	fmt.Printf("education: %s\n", engine.DetectEducation(text))
}
