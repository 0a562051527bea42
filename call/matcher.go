package call

// Match retains the clauses the site can invoke: same name and an arity
// interval containing the site's final arity. Input order is preserved, so
// when the resolver hands clauses nearest-first the first match doubles as
// the tie-break between overlapping intervals.
func Match(site Site, clauses []Clause) []Clause {
	final := site.FinalArity()
	var out []Clause
	for _, cl := range clauses {
		if cl.Name != site.Function {
			continue
		}
		if !cl.Arities.Contains(final) {
			continue
		}
		out = append(out, cl)
	}
	return out
}
