// Package files provides file system discovery for the NAV comparison
// tool: workbooks within a batch folder, batch subdirectories under the
// root, and the master lookup workbook located by a filename marker.
package files
