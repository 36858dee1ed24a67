// Package env probes the runtime environment of the launcher.
//
// It answers four questions, each computed once per Prober and cached:
//   - IsProductionMode: were the front-end assets built for production? Checks for a
//     production marker resource on the search path, then for build metadata
//     containing "productionMode": true.
//   - IsDevelopmentEnvironment: is the process launched from a source checkout? True
//     when pom.xml, build.gradle or build.gradle.kts exists in the working directory.
//   - ResolveResourceRoot: where does the static "webapp" folder live? A directory or
//     a folder inside a zip/jar archive, found via the webapp/ROOT sentinel.
//   - ResolveClassLocations: which folders or archive hold the application's own code?
//
// # Search Path
//
// Resources are resolved against a search path of directories and archives, either
// configured (BOOT_CLASSPATH) or derived from the supported packaging layouts: a
// resources folder, the distribution's lib/*.jar|*.zip, and Maven/Gradle outputs.
// Resolved resources are reported as file: or jar:file:...!/ URLs.
package env
