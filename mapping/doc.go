// Package mapping provides the metadata drivers the factories can build.
//
// File drivers read one mapping file per class (or a shared file named by a
// global basename) through a FileLocator over a billy.Filesystem. The
// simplified drivers bind directories to class name prefixes. DriverChain
// routes classes to nested drivers by prefix, and AttributeDriver reads `orm`
// struct tags of registered Go types.
package mapping
