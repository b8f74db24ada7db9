package vision

// ExtractionPrompt is the fixed instruction sent with every advertisement
// image. The model is expected to answer with bare JSON, either a single
// object or an array with one object per hostel found in the image.
const ExtractionPrompt = `You are analyzing an advertisement image that may contain one or multiple hostel posters.
For each distinct hostel advertisement visible, extract details in the following JSON format.
If multiple hostels are found, return an array of objects — one per hostel. Ensure all contact numbers and
location details are accurately captured.

Return ONLY valid JSON (no explanations, no markdown).

Expected structure:
[
  {
    "EstablishmentType": "...",
    "HostelName": "...",
    "LocationDetails": {
      "Landmark1": "...",
      "Landmark2": "..."
    },
    "KeyService": "...",
    "AccommodationOptions": "...",
    "ContactNumbers": [
      "...",
      "...",
      "..."
    ]
  }
]
`
