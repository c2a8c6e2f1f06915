package glm

// famLink is a (family, link) pair used as a registry key.
type famLink struct {
	fam  FamilyType
	link LinkType
}

// modelFuncs bundles the strategy functions for one supported
// family/link combination.
type modelFuncs struct {
	fam  *Family
	link *Link
	vari *Variance
}

// registry is the closed table of supported family/link combinations and
// the mean, variance, and link-derivative functions attached to each.
var registry = map[famLink]modelFuncs{
	{GaussianFamily, IdentityLink}: {&gaussian, &idLink, &constVariance},
	{BinomialFamily, LogitLink}:    {&binomial, &logitLink, &binomVariance},
	{BinomialFamily, LogLink}:      {&binomial, &logLink, &binomVariance},
	{PoissonFamily, LogLink}:       {&poisson, &logLink, &identVariance},
}

func lookup(fam FamilyType, link LinkType) (modelFuncs, error) {
	fns, ok := registry[famLink{fam, link}]
	if !ok {
		return modelFuncs{}, &UnsupportedCombinationError{Family: fam, Link: link}
	}
	return fns, nil
}
