package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

const (
	EnvJournalFile = "JRNL_FILE"
	EnvCurrency    = "JRNL_CURRENCY"
	EnvVerbose     = "JRNL_VERBOSE"
)

// RunExtension attempts to find and execute an external jrnl-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "jrnl-" + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1 // Indicate that an attempt was made, but it failed
	}

	return true, 0
}

// extensionEnv returns the global flags in the environment form an extension expects.
func extensionEnv() []string {
	return []string{
		EnvJournalFile + "=" + *journalFile,
		EnvCurrency + "=" + *displayCurrency,
		EnvVerbose + "=" + strconv.FormatBool(*Verbose),
	}
}
