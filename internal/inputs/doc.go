// Package inputs gathers command inputs from arguments or standard input.
//
// Line-oriented commands (IPs, addresses, coordinates) read one value per
// line with ReadLines. Lines may be up to 4 MiB; blank lines are dropped.
//
// File commands expand their arguments with Files, which walks directories
// lazily so a large tree is never listed up front:
//
//	for path, err := range inputs.Files(args) {
//		if err != nil {
//			return err
//		}
//		upload(path)
//	}
package inputs
