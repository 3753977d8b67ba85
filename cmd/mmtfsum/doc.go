// 18 Oct 2026

/*
Mmtfsum decodes structures in the macromolecular transmission format
and prints a few lines about each.

We do not read MessagePack. Input files are YAML maps from MMTF field
names to values, with the encoded arrays as !!binary. They may be
gzipped. A file name of "-" means standard input.

Usage:

	mmtfsum [flags] file...

Flags:

	-c, --config file     TOML file with workers, log, log_level,
	                      max_log_mb, metrics and stop_on_error
	-w, --workers n       structures to decode at once
	    --log dest        "" throws the log away, "stdout", or a file
	    --metrics file    write prometheus counters here at the end
	    --stop-on-error   give up at the first broken structure
	-v, --verbose         log every field of every structure

Flags win over the config file. The exit code is 0 if every file was
decoded, 1 if any failed and 2 for usage errors.
*/
package main
