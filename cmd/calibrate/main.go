// Command calibrate trains PLS calibration models from a directory of spectra.
package main

import (
	"os"

	"github.com/cwbudde/algo-chemometrics/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
