/*
Package glm fits generalized linear models using iteratively reweighted
least squares (IRLS), with model-based and robust (sandwich) covariance
estimation, including the cluster-robust form used for modified Poisson
regression.

The supported family/link combinations are gaussian-identity,
binomial-logit, binomial-log (log-binomial), and poisson-log.  Design
matrices are built from named datasets by the formula package.
*/
package glm
