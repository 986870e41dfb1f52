package mapping

import (
	"errors"

	"github.com/go-git/go-billy/v5"
)

var (
	// ErrClassNotFound is returned when no driver or file knows a class.
	ErrClassNotFound = errors.New("mapping: class not found")

	// ErrInvalidMapping is returned when a mapping file cannot be used.
	ErrInvalidMapping = errors.New("mapping: invalid mapping file")
)

// Driver loads mapping metadata for classes.
type Driver interface {
	// LoadMetadataForClass fills md with the mapping of className.
	LoadMetadataForClass(className string, md *ClassMetadata) error

	// AllClassNames returns every class this driver can map.
	AllClassNames() ([]string, error)

	// IsTransient reports whether className is not mapped by this driver.
	IsTransient(className string) bool
}

// FileLocator finds mapping files for classes.
type FileLocator interface {
	FindMappingFile(className string) (string, error)
	AllClassNames(globalBasename string) ([]string, error)
	FileExists(className string) bool
	Paths() []string
	FileExtension() string
	Filesystem() billy.Filesystem
}

// ExtensionSetter is implemented by locators whose file extension can change
// after construction.
type ExtensionSetter interface {
	SetFileExtension(extension string)
}

// LocatorAware is implemented by drivers that read through a FileLocator.
type LocatorAware interface {
	Locator() FileLocator
	SetLocator(locator FileLocator)
}

// GlobalBasenameSetter is implemented by drivers that can read a shared
// mapping file holding many classes.
type GlobalBasenameSetter interface {
	SetGlobalBasename(basename string)
	GlobalBasename() string
}

// DefaultDriverSetter is implemented by drivers that fall back to a delegate.
type DefaultDriverSetter interface {
	SetDefaultDriver(driver Driver)
	DefaultDriver() Driver
}

// DriverAdder is implemented by drivers that route classes by namespace prefix.
type DriverAdder interface {
	AddDriver(driver Driver, namespace string)
}
