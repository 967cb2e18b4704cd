package sumohelper

import (
	"container/heap"
)

// cameFromEntry Predecessor record for path reconstruction
type cameFromEntry struct {
	prev NodeID
	edge EdgeID
}

// shortestHopPath finds the minimum-hop path between two nodes, every edge
// costing exactly 1 regardless of physical length or speed. Returns the
// traversed edge identifiers in order, or nil when the target is not
// reachable. Among equal-hop paths the one discovered first by the queue
// wins, which is reproducible because neighbor lists keep insertion order.
func shortestHopPath(adj map[NodeID][]arc, source, target NodeID) []EdgeID {
	dist := make(map[NodeID]int)
	dist[source] = 0
	cameFrom := make(map[NodeID]cameFromEntry)
	closed := make(map[NodeID]bool)

	pq := &hopQueue{}
	heap.Init(pq)
	heap.Push(pq, &hopQueueItem{node: source, hops: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*hopQueueItem)
		current := item.node
		if closed[current] {
			continue
		}
		closed[current] = true
		if current == target {
			return reconstructEdgePath(cameFrom, source, target)
		}
		for _, a := range adj[current] {
			tentative := dist[current] + 1
			if old, ok := dist[a.to]; !ok || tentative < old {
				dist[a.to] = tentative
				cameFrom[a.to] = cameFromEntry{prev: current, edge: a.edge}
				heap.Push(pq, &hopQueueItem{node: a.to, hops: tentative})
			}
		}
	}
	return nil
}

func reconstructEdgePath(cameFrom map[NodeID]cameFromEntry, source, target NodeID) []EdgeID {
	var path []EdgeID
	current := target
	for current != source {
		entry, ok := cameFrom[current]
		if !ok {
			return nil
		}
		path = append([]EdgeID{entry.edge}, path...)
		current = entry.prev
	}
	return path
}

type hopQueueItem struct {
	node NodeID
	hops int
}

type hopQueue []*hopQueueItem

func (pq hopQueue) Len() int           { return len(pq) }
func (pq hopQueue) Less(i, j int) bool { return pq[i].hops < pq[j].hops }
func (pq hopQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *hopQueue) Push(x interface{}) {
	item := x.(*hopQueueItem)
	*pq = append(*pq, item)
}

func (pq *hopQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}
