// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

// IPTC IIM datasets per record.
// Source: https://exiftool.org/TagNames/IPTC.html
var iptcRecordFields = map[uint8]map[uint8]iptcField{
	1: {
		0:   {"EnvelopeRecordVersion", false, iptcFormatShort},
		5:   {"Destination", true, iptcFormatString},
		20:  {"FileFormat", false, iptcFormatShort},
		22:  {"FileVersion", false, iptcFormatShort},
		30:  {"ServiceIdentifier", false, iptcFormatString},
		40:  {"EnvelopeNumber", false, iptcFormatString},
		50:  {"ProductID", true, iptcFormatString},
		60:  {"EnvelopePriority", false, iptcFormatString},
		70:  {"DateSent", false, iptcFormatString},
		80:  {"TimeSent", false, iptcFormatString},
		90:  {"CodedCharacterSet", false, iptcFormatBinary},
		100: {"UniqueObjectName", false, iptcFormatString},
		120: {"ARMIdentifier", false, iptcFormatShort},
		122: {"ARMVersion", false, iptcFormatShort},
	},
	2: {
		0:   {"RecordVersion", false, iptcFormatShort},
		3:   {"ObjectTypeReference", false, iptcFormatString},
		4:   {"ObjectAttributeReference", true, iptcFormatString},
		5:   {"ObjectName", false, iptcFormatString},
		7:   {"EditStatus", false, iptcFormatString},
		8:   {"EditorialUpdate", false, iptcFormatString},
		10:  {"Urgency", false, iptcFormatString},
		12:  {"SubjectReference", true, iptcFormatString},
		15:  {"Category", false, iptcFormatString},
		20:  {"SupplementalCategories", true, iptcFormatString},
		22:  {"FixtureIdentifier", false, iptcFormatString},
		25:  {"Keywords", true, iptcFormatString},
		26:  {"ContentLocationCode", true, iptcFormatString},
		27:  {"ContentLocationName", true, iptcFormatString},
		30:  {"ReleaseDate", false, iptcFormatString},
		35:  {"ReleaseTime", false, iptcFormatString},
		37:  {"ExpirationDate", false, iptcFormatString},
		38:  {"ExpirationTime", false, iptcFormatString},
		40:  {"SpecialInstructions", false, iptcFormatString},
		42:  {"ActionAdvised", false, iptcFormatString},
		45:  {"ReferenceService", true, iptcFormatString},
		47:  {"ReferenceDate", true, iptcFormatString},
		50:  {"ReferenceNumber", true, iptcFormatString},
		55:  {"DateCreated", false, iptcFormatString},
		60:  {"TimeCreated", false, iptcFormatString},
		62:  {"DigitalCreationDate", false, iptcFormatString},
		63:  {"DigitalCreationTime", false, iptcFormatString},
		65:  {"OriginatingProgram", false, iptcFormatString},
		70:  {"ProgramVersion", false, iptcFormatString},
		75:  {"ObjectCycle", false, iptcFormatString},
		80:  {"Byline", true, iptcFormatString},
		85:  {"BylineTitle", true, iptcFormatString},
		90:  {"City", false, iptcFormatString},
		92:  {"SubLocation", false, iptcFormatString},
		95:  {"ProvinceState", false, iptcFormatString},
		100: {"CountryCode", false, iptcFormatString},
		101: {"CountryName", false, iptcFormatString},
		103: {"OriginalTransmissionReference", false, iptcFormatString},
		105: {"Headline", false, iptcFormatString},
		110: {"Credit", false, iptcFormatString},
		115: {"Source", false, iptcFormatString},
		116: {"CopyrightNotice", false, iptcFormatString},
		118: {"Contact", true, iptcFormatString},
		120: {"CaptionAbstract", false, iptcFormatString},
		121: {"LocalCaption", false, iptcFormatString},
		122: {"WriterEditor", true, iptcFormatString},
		130: {"ImageType", false, iptcFormatString},
		131: {"ImageOrientation", false, iptcFormatString},
		135: {"LanguageIdentifier", false, iptcFormatString},
	},
}
