package metrics

import (
	"expvar"
	"fmt"
	"io"
	"sort"
	"strings"
)

type meta struct {
	typ, help string
	isMap     bool
	label     string
}

var metas = map[string]meta{
	"lightgraph_passes_total":            {typ: "counter", help: "Evaluation passes run", isMap: true, label: "script"},
	"lightgraph_cycle_failures_total":    {typ: "counter", help: "Passes aborted by a cycle", isMap: true, label: "script"},
	"lightgraph_node_faults_total":       {typ: "counter", help: "Node faults caught during passes", isMap: true, label: "script"},
	"lightgraph_last_pass_microseconds":  {typ: "gauge", help: "Duration of the last pass", isMap: true, label: "script"},
	"lightgraph_node_computations_total": {typ: "counter", help: "Node computations executed", isMap: false},
	"lightgraph_ticks_total":             {typ: "counter", help: "Host ticks processed", isMap: false},
	"lightgraph_ticks_skipped_total":     {typ: "counter", help: "Host ticks skipped while a tick was running", isMap: false},
	"lightgraph_timeline_updates_total":  {typ: "counter", help: "Layer timeline updates", isMap: false},
	"lightgraph_placeholders_total":      {typ: "counter", help: "Placeholder nodes created for unknown kinds", isMap: false},
	"lightgraph_active_layers":           {typ: "gauge", help: "Layers rendered by the last tick", isMap: false},
	"lightgraph_tick_workers":            {typ: "gauge", help: "Workers updating layers in parallel", isMap: false},
}

// WritePrometheus renders expvar-published metrics in Prometheus text exposition format.
// Known lightgraph metrics carry HELP and TYPE lines; other integer vars are written as gauges.
func WritePrometheus(w io.Writer) {
	varNames := make([]string, 0, 64)
	expvar.Do(func(kv expvar.KeyValue) {
		varNames = append(varNames, kv.Key)
	})
	sort.Strings(varNames)

	for _, name := range varNames {
		v := expvar.Get(name)
		m, known := metas[name]
		if !known {
			if iv, ok := v.(*expvar.Int); ok {
				_, _ = fmt.Fprintf(w, "# TYPE %s gauge\n", name)
				_, _ = fmt.Fprintf(w, "%s %s\n", name, iv.String())
			}
			continue
		}
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, sanitizeHelp(m.help))
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, m.typ)
		if !m.isMap {
			_, _ = fmt.Fprintf(w, "%s %s\n", name, v.String())
			continue
		}
		mp, ok := v.(*expvar.Map)
		if !ok {
			continue
		}
		sub := make([]expvar.KeyValue, 0, 8)
		mp.Do(func(kv expvar.KeyValue) { sub = append(sub, kv) })
		sort.Slice(sub, func(i, j int) bool { return sub[i].Key < sub[j].Key })
		for _, kv := range sub {
			_, _ = fmt.Fprintf(w, "%s{%s=\"%s\"} %s\n", name, m.label, escapeLabel(kv.Key), kv.Value.String())
		}
	}
}

func sanitizeHelp(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// escapeLabel escapes backslash, double-quote and newline per the text format
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
