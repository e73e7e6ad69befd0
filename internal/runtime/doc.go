// Package runtime executes lookups over a decoded optimized-lookup automaton.
//
// The engine tokenizes the input against the input alphabet, then walks the
// automaton with an explicit work stack. Each branch carries its own output
// chain, flag diacritic state and accumulated weight, so branches never
// observe each other. Epsilon cycles are cut by refusing to re-enter a state
// at the same input position along one branch.
package runtime
