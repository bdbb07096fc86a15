// Package release provides the built-in release workflow for Python package
// projects: a dist task that builds the source and wheel distributions and a
// pypi task that uploads everything in the artifact directory to the package
// index. Projects can override or extend these tasks with a release.star
// script at the project root.
package release
