package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/moarchive/lib/infra"
)

// readPoints parses one point per line. Coordinates are separated by
// spaces, tabs or commas; blank lines and lines starting with # are skipped.
func readPoints(r io.Reader) ([][]float64, error) {
	var points [][]float64
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		p := make([]float64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("line %d", lineNo))
			}
			p = append(p, v)
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return points, nil
}

func readPointsFile(path string) ([][]float64, error) {
	if path == "-" {
		return readPoints(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	defer func() { _ = f.Close() }()
	return readPoints(f)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatPoint(p []float64) string {
	return strings.Join(lo.Map(p, func(v float64, _ int) string { return formatFloat(v) }), " ")
}
