/*
sdag draws concrete bifurcating tree topologies from a subsplit DAG built
over a collection of rooted topologies, via a bidirectional weighted random
walk.

usage: sdag [ -f <file> | -b <file> | -n <count> | -s <seed> | ... ] <topologies>

positional arguments:

	<topologies>	rooted newick (or nexus) topology file the DAG is built from

flags:

	-F format
	  	topology file format [ newick | nexus ] (default "newick")
	-f file
	  	forward (leafward) weight csv, one row per edge id (default uniform)
	-b file
	  	backward (rootward) weight csv, one row per edge id (default uniform)
	-n count
	  	number of topologies to sample (default 1)
	-s seed
	  	random seed; omit for clock seeding
	-r vertex
	  	start vertex id (default: DAG root)
	-o file
	  	output newick file (default stdout)
	-p prefix
	  	write topology frequency plot to <prefix>.png
	-h	prints this message and exits
	-v	prints version number and exits

example:

	sdag -n 1000 -s 42 -f forward.csv -b backward.csv posterior.nwk > samples.nwk 2> log.txt
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	gr "github.com/jsdoublel/sdag/internal/graphs"
	"github.com/jsdoublel/sdag/internal/netio"
	"github.com/jsdoublel/sdag/internal/sample"
)

const (
	Version    = "v0.1.0"
	ErrMessage = "sdag encountered an error ::"
)

type args struct {
	topologyFile string       // rooted topology collection the DAG is built from
	format       netio.Format // topology file format
	forwardFile  string       // forward (leafward) weight csv
	backwardFile string       // backward (rootward) weight csv
	nSamples     int          // number of topologies to draw
	seed         int64        // random seed
	seedSet      bool         // whether -s was given
	startVertex  int          // start vertex id (-1 = DAG root)
	outputFile   string       // output newick file ("" = stdout)
	plotPrefix   string       // frequency plot prefix ("" = no plot)
}

func parseArgs() args {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr,
			"usage: sdag [ -f <file> | -b <file> | -n <count> | -s <seed> | ... ] <topologies>\n",
			"\n",
			"positional arguments:\n\n",
			"  <topologies>\trooted newick (or nexus) topology file the DAG is built from\n",
			"\n",
			"flags:\n\n",
		)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr,
			"\n",
			"example:\n\n",
			"\tsdag -n 1000 -s 42 -f forward.csv -b backward.csv posterior.nwk > samples.nwk 2> log.txt\n",
		)
	}
	format := netio.Newick
	flag.Var(&format, "F", "topology file `format` [ newick | nexus ] (default \"newick\")")
	forwardFile := flag.String("f", "", "forward (leafward) weight csv `file`, one row per edge id (default uniform)")
	backwardFile := flag.String("b", "", "backward (rootward) weight csv `file`, one row per edge id (default uniform)")
	nSamples := flag.Int("n", 1, "number of topologies to sample")
	seed := flag.Int64("s", 0, "random `seed`; omit for clock seeding")
	startVertex := flag.Int("r", -1, "start `vertex` id (default: DAG root)")
	outputFile := flag.String("o", "", "output newick `file` (default stdout)")
	plotPrefix := flag.String("p", "", "write topology frequency plot to <`prefix`>.png")
	help := flag.Bool("h", false, "prints this message and exits")
	ver := flag.Bool("v", false, "prints version number and exits")
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *ver {
		fmt.Printf("sdag version %s\n", Version)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		parserError("one positional argument required: <topologies>")
	}
	if *nSamples < 1 {
		parserError(fmt.Sprintf("cannot sample %d topologies", *nSamples))
	}
	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "s" {
			seedSet = true
		}
	})
	return args{
		topologyFile: flag.Arg(0),
		format:       format,
		forwardFile:  *forwardFile,
		backwardFile: *backwardFile,
		nSamples:     *nSamples,
		seed:         *seed,
		seedSet:      seedSet,
		startVertex:  *startVertex,
		outputFile:   *outputFile,
		plotPrefix:   *plotPrefix,
	}
}

// prints message, usage, and exits (status code 1)
func parserError(message string) {
	fmt.Fprintln(os.Stderr, message)
	flag.Usage()
	os.Exit(1)
}

func uniformWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}
	return weights
}

func readWeights(path string, nEdges int) []float64 {
	if path == "" {
		return uniformWeights(nEdges)
	}
	weights, err := netio.ReadWeightsCSV(path, nEdges)
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	return weights
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("sdag version %s", Version)
	args := parseArgs()
	trees, err := netio.ReadTopologyFile(args.topologyFile, args.format)
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	dag, err := gr.BuildDAG(trees)
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	log.Printf("dag built from %d topologies: %d vertices, %d edges, %d taxa\n",
		len(trees), dag.NumVertices(), dag.NumEdges(), dag.NumTaxa())
	forward := readWeights(args.forwardFile, dag.NumEdges())
	backward := readWeights(args.backwardFile, dag.NumEdges())
	smp := sample.NewTopologySampler()
	if args.seedSet {
		smp.SetSeed(args.seed)
	}
	start := args.startVertex
	if start < 0 {
		start = dag.Root().ID()
	}
	log.Printf("sampling %d topologies from vertex %d\n", args.nSamples, start)
	topologies := make([]*gr.Node, args.nSamples)
	for i := range topologies {
		top, err := smp.Sample(start, dag, forward, backward)
		if err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
		topologies[i] = top
	}
	out := os.Stdout
	if args.outputFile != "" {
		out, err = os.Create(args.outputFile)
		if err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
		defer func() {
			if err := out.Close(); err != nil {
				log.Printf("error closing %s, %s", args.outputFile, err)
			}
		}()
	}
	if err := netio.WriteTopologies(out, dag, topologies); err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	if args.plotPrefix != "" {
		counts := make(map[string]int)
		for _, top := range topologies {
			counts[netio.TopologyNewick(dag, top)]++
		}
		log.Printf("%d distinct topologies sampled\n", len(counts))
		if err := netio.WriteFrequencyPlot(counts, args.plotPrefix); err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
	}
	log.Println("done.")
}
