package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/leafengine/leafcore/core/hash"
	"github.com/leafengine/leafcore/core/hashmap"
)

var (
	probeKeys     int
	probeRemove   float64
	probeSeed     int64
	probeHasher   string
	probeReinsert bool
)

func init() {
	cmd := newProbeCmd()
	cmd.Flags().IntVarP(&probeKeys, "keys", "n", 1000, "Number of keys to insert")
	cmd.Flags().Float64Var(&probeRemove, "remove", 0.25, "Fraction of keys to remove afterwards")
	cmd.Flags().Int64Var(&probeSeed, "seed", 1, "Seed for the removal order")
	cmd.Flags().StringVar(&probeHasher, "hasher", "strings", "Key hasher: strings, bytes or comparable")
	cmd.Flags().BoolVar(&probeReinsert, "reinsert", false, "Re-add the removed keys")
	rootCmd.AddCommand(cmd)
}

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Measure hash map occupancy and probe lengths",
		Long: `The probe command fills a hash map with string keys, removes a share of
them and reports capacity, tombstones, load factor and the longest probe
sequence.

Example:
  leafctl probe --keys 10000 --remove 0.5
  leafctl probe --hasher bytes --reinsert --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe()
		},
	}
	return cmd
}

type probeResult struct {
	Hasher       string  `json:"hasher"`
	Inserted     int     `json:"inserted"`
	Removed      int     `json:"removed"`
	Reinserted   int     `json:"reinserted"`
	Capacity     int     `json:"capacity"`
	Size         int     `json:"size"`
	Tombstones   int     `json:"tombstones"`
	Free         int     `json:"free"`
	LoadFactor   float64 `json:"load_factor"`
	LongestProbe int     `json:"longest_probe"`
}

func newProbeMap(name string) (*hashmap.Map[string, int], error) {
	eq := hash.DefaultEqual[string]()
	switch name {
	case "strings":
		return hashmap.NewWith[string, int](hash.Strings[string](), eq), nil
	case "bytes":
		bytesHasher := hash.Bytes()
		return hashmap.NewWith[string, int](hash.HashFunc[string](func(k string) uint64 {
			return bytesHasher.Hash([]byte(k))
		}), eq), nil
	case "comparable":
		return hashmap.NewWith[string, int](hash.Comparable[string](), eq), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

func runProbe() error {
	if probeKeys < 0 {
		return fmt.Errorf("--keys must not be negative")
	}
	if probeRemove < 0 || probeRemove > 1 {
		return fmt.Errorf("--remove must be between 0 and 1")
	}
	m, err := newProbeMap(probeHasher)
	if err != nil {
		return err
	}
	defer m.Free()

	keys := make([]string, probeKeys)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		m.Add(keys[i], i)
	}

	rng := rand.New(rand.NewSource(probeSeed))
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	removed := keys[:int(float64(len(keys))*probeRemove)]
	for _, k := range removed {
		m.Remove(k)
	}
	printVerbose("Removed %d of %d keys\n", len(removed), probeKeys)

	res := probeResult{Hasher: probeHasher, Inserted: probeKeys, Removed: len(removed)}
	if probeReinsert {
		for i, k := range removed {
			m.Add(k, i)
		}
		res.Reinserted = len(removed)
	}

	for _, k := range keys[len(removed):] {
		if !m.Contains(k) {
			return fmt.Errorf("key %q lost after removals", k)
		}
	}

	st := m.Stats()
	res.Capacity = st.Capacity
	res.Size = st.Size
	res.Tombstones = st.Tombstones
	res.Free = st.Free
	res.LoadFactor = st.LoadFactor()
	res.LongestProbe = st.LongestProbe

	if jsonOut {
		return printJSON(res)
	}
	printInfo("hasher: %s\n", res.Hasher)
	printInfo("inserted: %d removed: %d reinserted: %d\n", res.Inserted, res.Removed, res.Reinserted)
	printInfo("%s\n", st)
	return nil
}
