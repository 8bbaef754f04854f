package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/alexanderritik/dbiso/internal/adapters"
	"github.com/alexanderritik/dbiso/internal/engine"
	"github.com/alexanderritik/dbiso/internal/graph"
	"github.com/alexanderritik/dbiso/internal/pattern"
	"github.com/alexanderritik/dbiso/internal/watch"

	"github.com/spf13/cobra"
)

var (
	matchPatternPath string
	matchInduced     bool
	matchDefaultEq   bool
	matchLimit       int
	matchWatch       bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find occurrences of a structural pattern in the schema graph",
	Long:  `Loads a pattern file describing a small motif of tables and dependencies, and reports every place it occurs in the live database schema using subgraph isomorphism.`,
	Run: func(cmd *cobra.Command, args []string) {
		ensureDBConnection()

		if matchPatternPath == "" {
			fmt.Println("Error: --pattern flag is required")
			os.Exit(1)
		}

		a, err := adapters.NewAdapter(dbUrl)
		if err != nil {
			fmt.Printf("Error creating adapter: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()

		if err := a.Connect(dbUrl); err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		g := graph.NewGraph()
		if err := a.FetchSchema(g); err != nil {
			fmt.Printf("Error fetching schema: %v\n", err)
			os.Exit(1)
		}
		e := engine.NewEngine(g, a)

		p, err := pattern.Load(matchPatternPath)
		if err != nil {
			fmt.Printf("Error loading pattern: %v\n", err)
			os.Exit(1)
		}

		runMatch(e, p)

		if matchWatch {
			watchDir := matchPatternPath
			if !strings.HasSuffix(watchDir, "/") {
				watchDir = dirOf(watchDir)
			}
			w, err := watch.New(watchDir, func(job watch.Job) {
				log.Infof("🔁 job %s: reloading pattern after %d file change(s)", job.ID, len(job.Files))
				p, err := pattern.Load(matchPatternPath)
				if err != nil {
					log.Warnf("reload failed: %v", err)
					return
				}
				runMatch(e, p)
			})
			if err != nil {
				fmt.Printf("Error starting pattern watcher: %v\n", err)
				os.Exit(1)
			}
			defer w.Stop()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			w.Start(ctx)

			fmt.Println("👀 Watching for pattern changes. Press Ctrl+C to stop.")
			select {}
		}
	},
}

func dirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "."
	}
	return path[:idx]
}

func runMatch(e *engine.Engine, p *pattern.Pattern) {
	kind := engine.MatchSubgraph
	if matchInduced {
		kind = engine.MatchInduced
	}

	matches, err := e.Match(p, engine.MatchOptions{
		Kind:        kind,
		MatchLabels: matchDefaultEq,
		Limit:       matchLimit,
	})
	if err != nil {
		fmt.Printf("Error matching pattern: %v\n", err)
		return
	}

	fmt.Printf("\n🧩 PATTERN MATCH: %s\n", p.Name)
	fmt.Println(strings.Repeat("-", 80))
	if len(matches) == 0 {
		fmt.Println("No occurrences found.")
		return
	}

	patternNodeIDs := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		patternNodeIDs = append(patternNodeIDs, n.ID)
	}
	sort.Strings(patternNodeIDs)

	for i, m := range matches {
		fmt.Printf("%d.", i+1)
		for _, id := range patternNodeIDs {
			fmt.Printf(" %s=%s", id, m[id])
		}
		fmt.Println()
	}
	fmt.Printf("\n%d match(es) found.\n", len(matches))
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringVar(&matchPatternPath, "pattern", "", "Pattern file to match (YAML)")
	matchCmd.Flags().BoolVar(&matchInduced, "induced", false, "require an induced subgraph match (no extra edges among matched nodes)")
	matchCmd.Flags().BoolVar(&matchDefaultEq, "default-eq", false, "require matched nodes/edges to carry the same type")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0, "maximum number of matches to report (0 = unlimited)")
	matchCmd.Flags().BoolVar(&matchWatch, "watch", false, "re-run the match whenever the pattern file changes")
}
