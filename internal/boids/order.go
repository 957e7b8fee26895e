package boids

func (s *Swarm) drawOrder() []int {
	if s.params.DrawOrder == DrawOrderLegacy {
		return legacyOrder(len(s.left), s.rng.Intn)
	}
	return s.rng.Perm(len(s.left))
}

// legacyOrder removes n-1 random indices one by one and appends the single
// remaining index last.
func legacyOrder(n int, intn func(int) int) []int {
	if n == 0 {
		return nil
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	order := make([]int, 0, n)
	for i := 0; i < n-1; i++ {
		j := intn(len(pool))
		order = append(order, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}
	return append(order, pool[0])
}
