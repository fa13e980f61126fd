package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/socialgolfer/pkg/model"
	"github.com/samber/lo"
)

const (
	executablePath     = "../../bin/golfer"
	instancesDirectory = "../../test/instances/"
	outputDirectory    = "../../test/out/"
	timeLimitSeconds   = 30
)

type ResultType int

const (
	valid ResultType = iota
	invalid
	failed
)

var (
	solverNames = []string{"gophersat", "gini", "kissat", "cadical", "minisat", "glucose"}
	resultTypes = map[ResultType]string{
		valid:   "valid",
		invalid: "invalid",
		failed:  "error",
	}
)

type InstanceMetadata struct {
	Name     string
	Instance model.Instance
}

type BenchmarkResult struct {
	Solver        string
	Instance      InstanceMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Objective     int
	Result        ResultType
}

func main() {
	instances := getInstances()
	results := make([]BenchmarkResult, 0, len(instances)*len(solverNames))

	if err := os.MkdirAll(outputDirectory, 0755); err != nil {
		log.Fatalf("cannot create output directory: %v", err)
	}

	for _, instance := range instances {
		for _, solver := range solverNames {
			fmt.Printf("Benchmarking instance \"%v\" with solver \"%v\"\n", instance.Name, solver)

			result := measure(solver, instance)
			results = append(results, result)
		}
	}

	toCsv(results)
}

func getInstances() []InstanceMetadata {
	files, err := os.ReadDir(instancesDirectory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	instances := make([]InstanceMetadata, 0, len(files))
	for _, file := range lo.Filter(files, func(file os.DirEntry, _ int) bool { return !file.IsDir() }) {
		filename := filepath.Join(instancesDirectory, file.Name())
		instance, err := model.InstanceFromFile(filename)
		if err != nil {
			log.Fatalf("cannot parse instance file: %v", err)
		}
		instances = append(instances, InstanceMetadata{Name: filename, Instance: instance})
	}
	return instances
}

func measure(solver string, instance InstanceMetadata) BenchmarkResult {
	outFile := filepath.Join(outputDirectory, fmt.Sprintf("%v.%v.out", filepath.Base(instance.Name), solver))
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "--solver", solver, instance.Name, outFile, strconv.Itoa(timeLimitSeconds))

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	result := BenchmarkResult{Solver: solver, Instance: instance, Objective: -1}
	switch cmd.ProcessState.ExitCode() {
	case 0:
		result.Result = valid
	case 15:
		result.Result = invalid
	default:
		log.Printf("an error occurred during the execution of \"golfer\" on instance \"%v\" using solver \"%v\": %v\n", instance.Name, solver, stdErr.String())
		result.Result = failed
		return result
	}

	schedule, err := model.ScheduleFromFile(outFile, instance.Instance.Weeks, instance.Instance.Groups)
	if err == nil {
		result.Objective = schedule.Objective
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	result.Duration = parseDurationLine(getLine("wall clock"))
	result.Memory = parseMemoryLine(getLine("maximum resident set size"))
	result.CpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Solver", "Instance", "Groups", "GroupSize", "Weeks", "Golfers", "Duration(ms)", "Memory(MB)", "CPU(%)", "Objective", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Solver,
			result.Instance.Name,
			fmt.Sprintf("%d", result.Instance.Instance.Groups),
			fmt.Sprintf("%d", result.Instance.Instance.GroupSize),
			fmt.Sprintf("%d", result.Instance.Instance.Weeks),
			fmt.Sprintf("%d", result.Instance.Instance.Golfers()),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			fmt.Sprintf("%d", result.Objective),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

// parseDuration converts GNU time's h:mm:ss.cc or m:ss.cc into milliseconds.
func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsParts := strings.Split(parts[len(parts)-1], ".")
	seconds := lo.Must(strconv.Atoi(secondsParts[0]))
	hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))

	var minutes, hours int
	switch len(parts) {
	case 3: // h:mm:ss
		hours = lo.Must(strconv.Atoi(parts[0]))
		minutes = lo.Must(strconv.Atoi(parts[1]))
	case 2: // m:ss
		minutes = lo.Must(strconv.Atoi(parts[0]))
	default:
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / 1024
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
