// Package categories lists the category labels that books reference by id.
package categories
