package control

import (
	"encoding/json"

	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/stresscontext"
	"github.com/nimbusdb/cstress/internal/workload"
)

// Request is one line-delimited JSON request (spec §4.9).
type Request struct {
	Command string                     `json:"command"`
	Config  *stresscontext.RunConfig   `json:"config,omitempty"`
	Params  map[string]json.RawMessage `json:"params,omitempty"`
}

// Response is one line-delimited JSON response. IsError marks an error
// object per spec §6: "error responses carry a boolean isError=true flag."
type Response struct {
	IsError bool        `json:"isError,omitempty"`
	Error   string      `json:"error,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

func errorResponse(msg string) Response {
	return Response{IsError: true, Error: msg}
}

func okResponse(result interface{}) Response {
	return Response{Result: result}
}

// WorkloadSummary is one entry of the list_workloads response.
type WorkloadSummary struct {
	Name string `json:"name"`
}

type listWorkloadsResult struct {
	Workloads []WorkloadSummary `json:"workloads"`
	Total     int               `json:"total"`
}

func listWorkloads() Response {
	names := workload.Default.Names()
	out := make([]WorkloadSummary, len(names))
	for i, n := range names {
		out[i] = WorkloadSummary{Name: n}
	}
	return okResponse(listWorkloadsResult{Workloads: out, Total: len(out)})
}

// infoResult is the `info` command's response shape (spec §4.9): name,
// class, schema, default read rate, and parameter descriptors.
type infoResult struct {
	Name            string           `json:"name"`
	Class           string           `json:"class"`
	Schema          []string         `json:"schema"`
	DefaultReadRate float64          `json:"defaultReadRate"`
	Parameters      []paramSummary   `json:"parameters"`
}

type paramSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Variants    []string `json:"variants,omitempty"`
}

func info(name string) Response {
	w, err := workload.Default.Get(name)
	if err != nil {
		return errorResponse(err.Error())
	}
	params := make([]paramSummary, 0, len(w.Parameters()))
	for _, p := range w.Parameters() {
		params = append(params, paramSummary{
			Name:        p.Name,
			Description: p.Description,
			Kind:        p.Kind.String(),
			Variants:    p.Variants,
		})
	}
	return okResponse(infoResult{
		Name:            w.Name(),
		Class:           w.Name(),
		Schema:          w.DDL(),
		DefaultReadRate: w.DefaultReadRate(),
		Parameters:      params,
	})
}

type fieldSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type fieldsResult struct {
	Generators []fieldSummary `json:"generators"`
	Total      int            `json:"total"`
}

func fields() Response {
	reg := fieldgen.NewRegistry()
	fieldgen.RegisterBuiltins(reg)
	descs := reg.List()
	out := make([]fieldSummary, len(descs))
	for i, d := range descs {
		out[i] = fieldSummary{Name: d.Name, Description: d.Description}
	}
	return okResponse(fieldsResult{Generators: out, Total: len(out)})
}
