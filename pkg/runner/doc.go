/*
Package runner streams words through an analyzer, one per line, the way the
hfst-optimized-lookup tool does.

It also provides SanitizeInput, shared by every host adapter that accepts words
from outside the process.

# Usage

	r := runner.NewRunner(fst, runner.WithLogger(logger))
	if err := r.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}

Output for "atim":

	atim	atim+N+A+Sg	0.000000
	atim	atimêw+V+TA+Imp+Imm+2Sg+3SgO	0.000000

*/
package runner
