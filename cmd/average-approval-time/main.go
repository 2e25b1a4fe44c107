// Command average-approval-time prints the average approval time in hours of
// a JSON array of loan documents read from a file, or from stdin when the
// argument is "-".
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"loan-approval-metrics/internal/pkg/logger"
	approvaltime "loan-approval-metrics/internal/service/approval_time"
)

const usage = "usage: average-approval-time <loans.json | ->"

var errUsage = errors.New(usage)

func main() {
	logger.Init("error", "average-approval-time")
	defer logger.Sync()

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		logger.Error("average-approval-time failed", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	data, err := readInput(args[0], stdin)
	if err != nil {
		return err
	}

	docs, err := decodeDocuments(data)
	if err != nil {
		return err
	}

	records, err := approvaltime.FromDocuments(docs)
	if err != nil {
		return err
	}

	avg, err := approvaltime.AverageApprovalTime(records)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "%.2f\n", avg)
	return err
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	// #nosec G304: the path is the operator's own argument
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// decodeDocuments keeps numbers as json.Number so integers and floats reach
// the converter unchanged.
func decodeDocuments(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode loan documents: %w", err)
	}
	return docs, nil
}
