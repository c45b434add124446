package advisory

// defaultLicences maps SPDX licence identifiers to the URLs the SPDX
// licence list registers for them (the "seeAlso" entries). This is a
// curated subset of https://spdx.org/licenses/ covering the licences that
// appear in practice in API descriptions; callers validating against the
// full list should build a Table from a fresh SPDX export.
var defaultLicences = map[string][]string{
	"Apache-2.0": {
		"https://www.apache.org/licenses/LICENSE-2.0",
		"https://opensource.org/licenses/Apache-2.0",
	},
	"MIT": {
		"https://opensource.org/license/mit/",
		"https://opensource.org/licenses/MIT",
	},
	"BSD-2-Clause": {
		"https://opensource.org/licenses/BSD-2-Clause",
	},
	"BSD-3-Clause": {
		"https://opensource.org/licenses/BSD-3-Clause",
	},
	"GPL-2.0-only": {
		"https://www.gnu.org/licenses/old-licenses/gpl-2.0-standalone.html",
	},
	"GPL-2.0-or-later": {
		"https://www.gnu.org/licenses/old-licenses/gpl-2.0-standalone.html",
	},
	"GPL-3.0-only": {
		"https://www.gnu.org/licenses/gpl-3.0-standalone.html",
	},
	"GPL-3.0-or-later": {
		"https://www.gnu.org/licenses/gpl-3.0-standalone.html",
	},
	"LGPL-2.1-only": {
		"https://www.gnu.org/licenses/old-licenses/lgpl-2.1-standalone.html",
	},
	"LGPL-3.0-only": {
		"https://www.gnu.org/licenses/lgpl-3.0-standalone.html",
	},
	"AGPL-3.0-only": {
		"https://www.gnu.org/licenses/agpl-3.0-standalone.html",
	},
	"MPL-2.0": {
		"https://www.mozilla.org/MPL/2.0/",
		"https://opensource.org/licenses/MPL-2.0",
	},
	"ISC": {
		"https://www.isc.org/licenses/",
		"https://opensource.org/licenses/ISC",
	},
	"Unlicense": {
		"https://unlicense.org/",
	},
	"CC0-1.0": {
		"https://creativecommons.org/publicdomain/zero/1.0/legalcode",
	},
	"CC-BY-4.0": {
		"https://creativecommons.org/licenses/by/4.0/legalcode",
	},
	"CC-BY-SA-4.0": {
		"https://creativecommons.org/licenses/by-sa/4.0/legalcode",
	},
	"EPL-2.0": {
		"https://www.eclipse.org/legal/epl-2.0",
		"https://opensource.org/licenses/EPL-2.0",
	},
	"BSL-1.0": {
		"https://www.boost.org/LICENSE_1_0.txt",
		"https://opensource.org/licenses/BSL-1.0",
	},
	"Zlib": {
		"https://www.zlib.net/zlib_license.html",
		"https://opensource.org/licenses/Zlib",
	},
	"0BSD": {
		"https://landley.net/toybox/license.html",
		"https://opensource.org/licenses/0BSD",
	},
	"WTFPL": {
		"http://www.wtfpl.net/about/",
	},
	"EUPL-1.2": {
		"https://joinup.ec.europa.eu/collection/eupl/eupl-text-eupl-12",
	},
	"Artistic-2.0": {
		"https://www.perlfoundation.org/artistic-license-20.html",
		"https://opensource.org/licenses/artistic-license-2.0",
	},
	"OFL-1.1": {
		"https://openfontlicense.org/open-font-license-official-text/",
		"https://opensource.org/licenses/OFL-1.1",
	},
}
