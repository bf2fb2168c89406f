// Package solver implements the Multiple-Choice Knapsack Problem engine:
// dominance preprocessing, efficiency ranking over the per-channel upper
// convex hulls, the greedy LP relaxation and its bounding variant, exact
// branch-and-bound search (depth-first and breadth-first) and two
// dynamic-programming formulations.
//
// Typical flow:
//
//	inst, err := model.New(budget, channels)
//	err = solver.Preprocess(inst)
//	rank, err := solver.Rank(inst)
//	sol, err := solver.SolveGreedy(inst)
//	res, err := solver.BranchAndBound(ctx, inst, solver.DepthFirst)
//
// Branch-and-bound and the DP tables iterate inst.Channels (the
// IP-filtered staircase) because an LP-dominated term may still be part of
// the integer optimum. Ranking, greedy and bounds only look at inst.Hull.
package solver
