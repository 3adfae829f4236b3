package placement

import "github.com/space4ai/placement-optimizer/internal/yhat"

// ReduceClusterSize yields a locally cost-minimal instance count without
// changing the resource mapping (§4.5 step 4): for every non-FaaS
// resource whose column max exceeds 1, every cell in that column holding
// more than one instance is decremented by one, uniformly, as long as the
// result stays feasible; cells at one instance are left at one.
// The operation is idempotent (running it twice is a no-op) and monotone
// (never increases cost, never turns a feasible placement infeasible —
// §8 testable properties).
func (c *Checker) ReduceClusterSize(y yhat.Assignment) yhat.Assignment {
	cur := y.Clone()

	for j := 0; j < c.Sys.FaaSStartIndex; j++ {
		for {
			type loc struct{ i, h, count int }
			var cells []loc
			maxCount := 0
			for i := range cur {
				for h, cell := range cur[i].Rows {
					if cell.Resource != j {
						continue
					}
					cells = append(cells, loc{i, h, cell.Count})
					if cell.Count > maxCount {
						maxCount = cell.Count
					}
				}
			}
			if len(cells) == 0 || maxCount <= 1 {
				break
			}

			candidate := cur.Clone()
			for _, l := range cells {
				if l.count > 1 {
					candidate[l.i].Set(l.h, j, l.count-1)
				}
			}

			if c.Check(candidate).Feasible {
				cur = candidate
				continue
			}
			break
		}
	}

	return cur
}
