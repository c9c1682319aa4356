package domain

import "errors"

var (
	// ErrUnsupportedArch is returned when the host CPU architecture has no vendor download target.
	ErrUnsupportedArch = errors.New("unsupported host architecture, expected amd64 or arm64")

	// ErrRunAsRoot is returned when the pipeline is invoked under an elevated-privilege identity.
	ErrRunAsRoot = errors.New("refusing to run as root")

	// ErrInvalidFormat is returned when the build format flag is not one of deb, appimage or flatpak.
	ErrInvalidFormat = errors.New("invalid build format, expected 'deb', 'appimage' or 'flatpak'")

	// ErrInvalidCleanup is returned when the cleanup flag is not a yes/no value.
	ErrInvalidCleanup = errors.New("invalid cleanup value, expected 'yes' or 'no'")

	// ErrWorkTreeFailed is returned when the working tree cannot be recreated.
	ErrWorkTreeFailed = errors.New("failed to prepare working tree")

	// ErrDownloadFailed is returned when a network fetch fails.
	ErrDownloadFailed = errors.New("download failed")

	// ErrExtractFailed is returned when an archive cannot be extracted.
	ErrExtractFailed = errors.New("archive extraction failed")

	// ErrInstallerPackageNotFound is returned when no inner versioned package is found in the installer payload.
	ErrInstallerPackageNotFound = errors.New("no versioned package found in installer payload")

	// ErrInstallerPackageAmbiguous is returned when more than one inner versioned package matches.
	ErrInstallerPackageAmbiguous = errors.New("multiple versioned packages found in installer payload")

	// ErrVersionNotFound is returned when no semantic version can be extracted from the package filename.
	ErrVersionNotFound = errors.New("could not extract version from package filename")

	// ErrArchiveMissing is returned when the application archive is absent from the extracted payload.
	ErrArchiveMissing = errors.New("application archive not found in extracted payload")

	// ErrNodeProvisionFailed is returned when a sufficient Node.js runtime cannot be provisioned.
	ErrNodeProvisionFailed = errors.New("failed to provision Node.js runtime")

	// ErrElectronInstallFailed is returned when the local Electron/asar installation fails.
	ErrElectronInstallFailed = errors.New("failed to install local Electron environment")

	// ErrPatchTargetNotFound is returned when an expected pattern, function or file is absent.
	ErrPatchTargetNotFound = errors.New("patch target not found")

	// ErrPatchTargetAmbiguous is returned when a patch target that must be unique matches more than once.
	ErrPatchTargetAmbiguous = errors.New("patch target is ambiguous")

	// ErrPatchVerifyFailed is returned when a rewrite post-condition check fails.
	ErrPatchVerifyFailed = errors.New("patch verification failed")

	// ErrRepackFailed is returned when the application archive cannot be repacked.
	ErrRepackFailed = errors.New("failed to repack application archive")

	// ErrIconExtractFailed is returned when no icon rasters can be extracted from the vendor executable.
	ErrIconExtractFailed = errors.New("failed to extract icons from vendor executable")

	// ErrStageFailed is returned when assembling the staging directory fails.
	ErrStageFailed = errors.New("failed to assemble staging directory")

	// ErrPackagingFailed is returned when a packaging back-end fails.
	ErrPackagingFailed = errors.New("packaging failed")

	// ErrBuildFailed is returned by the CLI layer when the pipeline fails.
	// The diagnosis has already been logged when this error surfaces.
	ErrBuildFailed = errors.New("build failed")
)
